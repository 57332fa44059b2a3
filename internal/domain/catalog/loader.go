package catalog

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

// LoadFile reads a YAML catalog of the form
//
//	deals:
//	  - id: d1
//	    title: ...
//	    category: wedges
//	    original_price: 149.99
//	    tags: [value]
func LoadFile(path string) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	var deals []model.Deal
	if err := k.UnmarshalWithConf("deals", &deals, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	if len(deals) == 0 {
		return nil, fmt.Errorf("%w: %s: no deals", ErrLoad, path)
	}
	return New(deals)
}
