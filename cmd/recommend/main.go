// Command recommend prints the recommendation envelope for a profile file
// without starting the service or sending any marketing events.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	service "github.com/birdiedeals/birdie/internal/app"
	"github.com/birdiedeals/birdie/internal/domain/catalog"
	"github.com/birdiedeals/birdie/internal/domain/matching"
	"github.com/birdiedeals/birdie/internal/domain/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errUsage = errors.New("usage: recommend -profile profile.json [-catalog deals.yaml]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "recommend:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	profilePath := fs.String("profile", "", "Path to a profile JSON document; - reads stdin")
	catalogPath := fs.String("catalog", "", "Path to a YAML catalog (default: built-in deals)")
	compact := fs.Bool("compact", false, "Print without indentation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *profilePath == "" {
		return errUsage
	}

	p, err := readProfile(*profilePath)
	if err != nil {
		return err
	}

	c := catalog.Default()
	if *catalogPath != "" {
		if c, err = catalog.LoadFile(*catalogPath); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
	}

	rec := service.Envelope(p, matching.Suggest(p, c))

	enc := json.NewEncoder(out)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rec)
}

// readProfile accepts either a bare profile or a {"profile": ...} request body.
func readProfile(path string) (model.Profile, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("read profile: %w", err)
	}

	if json.Get(raw, "profile").ValueType() == jsoniter.ObjectValue {
		var wrapped struct {
			Profile model.Profile `json:"profile"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return model.Profile{}, fmt.Errorf("decode profile: %w", err)
		}
		return wrapped.Profile, nil
	}

	var p model.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}
