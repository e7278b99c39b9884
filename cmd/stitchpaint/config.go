package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/esimov/stitchpaint/stitch"
)

// envPrefix prefixes the environment variables overriding the planner parameters.
const envPrefix = "STITCHPAINT"

// loadParams reads the planner parameters from the defaults, the optional
// config file and the environment, in increasing order of precedence.
func loadParams(path string) (stitch.Params, error) {
	def := stitch.DefaultParams()

	v := viper.New()
	v.SetDefault("alpha1", def.Alpha1)
	v.SetDefault("beta1", def.Beta1)
	v.SetDefault("alpha2", def.Alpha2)
	v.SetDefault("beta2", def.Beta2)
	v.SetDefault("blend", def.Blend)
	v.SetDefault("use_map_blend", def.UseMapBlend)
	v.SetDefault("cost_bias", def.CostBias)
	v.SetDefault("subgrid_size", def.SubgridSize)
	v.SetDefault("inflate", def.Inflate)
	v.SetDefault("bucket_size", def.BucketSize)
	v.SetDefault("radius", def.Radius)
	v.SetDefault("repair_radius", def.RepairRadius)
	v.SetDefault("jump_threshold", def.JumpThreshold)
	v.SetDefault("off_threshold", def.OffThreshold)
	v.SetDefault("zigzag.k", def.ZigZag.K)
	v.SetDefault("zigzag.min_height", def.ZigZag.MinHeight)
	v.SetDefault("zigzag.max_height", def.ZigZag.MaxHeight)
	v.SetDefault("long_edge_threshold", def.LongEdgeThreshold)
	v.SetDefault("max_opt2_iterations", def.MaxOpt2Iterations)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("start", string(def.Start))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return stitch.Params{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	p := stitch.Params{
		Alpha1:        v.GetFloat64("alpha1"),
		Beta1:         v.GetFloat64("beta1"),
		Alpha2:        v.GetFloat64("alpha2"),
		Beta2:         v.GetFloat64("beta2"),
		Blend:         v.GetFloat64("blend"),
		UseMapBlend:   v.GetBool("use_map_blend"),
		CostBias:      v.GetFloat64("cost_bias"),
		SubgridSize:   v.GetInt("subgrid_size"),
		Inflate:       v.GetFloat64("inflate"),
		BucketSize:    v.GetInt("bucket_size"),
		Radius:        v.GetFloat64("radius"),
		RepairRadius:  v.GetFloat64("repair_radius"),
		JumpThreshold: v.GetFloat64("jump_threshold"),
		OffThreshold:  v.GetFloat64("off_threshold"),
		ZigZag: stitch.ZigZag{
			K:         v.GetFloat64("zigzag.k"),
			MinHeight: v.GetFloat64("zigzag.min_height"),
			MaxHeight: v.GetFloat64("zigzag.max_height"),
		},
		LongEdgeThreshold: v.GetFloat64("long_edge_threshold"),
		MaxOpt2Iterations: v.GetInt("max_opt2_iterations"),
		Seed:              v.GetInt64("seed"),
		Start:             stitch.Start(v.GetString("start")),
	}
	return p, p.Validate()
}

// newLogger returns a console logger printing warnings, or everything when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}
