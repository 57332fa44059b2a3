package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/birdiedeals/birdie/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		unsetEnv(t, overrideKeys...)
		t.Setenv("BIRDIE_JWT_SECRET", "secret")

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.JWTSecret, convey.ShouldEqual, "secret")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("BIRDIE_ADDR", ":9090")
			t.Setenv("BIRDIE_QUEUE_SIZE", "500")
			t.Setenv("BIRDIE_WORKER_COUNT", "3")
			t.Setenv("BIRDIE_STORE_BACKEND", "redis")
			t.Setenv("BIRDIE_REDIS_DB", "2")
			t.Setenv("BIRDIE_MARKETING_RATE_PER_SEC", "2.5")
			t.Setenv("BIRDIE_CORS_ORIGINS", "https://a.example,https://b.example")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.StoreRedis)
				convey.So(cfg.RedisDB, convey.ShouldEqual, 2)
				convey.So(cfg.MarketingRatePerSec, convey.ShouldEqual, 2.5)
				convey.So(cfg.Origins(), convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeConfigFile(t, `
addr: ":7070"
queue_size: 300
worker_count: 24
catalog_path: "/etc/birdie/catalog.yaml"
log_format: json
`)
			t.Setenv("BIRDIE_CONFIG", path)
			t.Setenv("BIRDIE_WORKER_COUNT", "32")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/etc/birdie/catalog.yaml")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			t.Setenv("BIRDIE_CONFIG", writeConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			t.Setenv("BIRDIE_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the token secret is missing", func() {
			t.Setenv("BIRDIE_JWT_SECRET", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			t.Setenv("BIRDIE_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading after other cases set overrides", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then none of their values carry over", func() {
				def := config.New()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, def.Addr)
				convey.So(cfg.QueueSize, convey.ShouldEqual, def.QueueSize)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, def.WorkerCount)
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.RedisDB, convey.ShouldEqual, 0)
				convey.So(cfg.MarketingRatePerSec, convey.ShouldEqual, def.MarketingRatePerSec)
				convey.So(cfg.CORSOrigins, convey.ShouldEqual, def.CORSOrigins)
				convey.So(cfg.CatalogPath, convey.ShouldBeEmpty)
			})
		})
	})
}

// overrideKeys lists every variable a case in TestConfigLoader sets.
var overrideKeys = []string{
	"BIRDIE_CONFIG",
	"BIRDIE_ADDR",
	"BIRDIE_QUEUE_SIZE",
	"BIRDIE_WORKER_COUNT",
	"BIRDIE_STORE_BACKEND",
	"BIRDIE_REDIS_DB",
	"BIRDIE_MARKETING_RATE_PER_SEC",
	"BIRDIE_CORS_ORIGINS",
}

// unsetEnv removes keys for the rest of the test and restores them after.
// An empty value would still override a default, so the keys are unset.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("unset %s: %v", k, err)
		}
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "birdie.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
