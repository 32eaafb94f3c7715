/*
Package config provides type-safe extraction of engine settings from
decoded YAML or JSON documents.

# Basic Usage

	cfg, err := config.FromYAML([]byte(`
	max_index: 4096
	missing: error
	definitions:
	  cell: B2
	  rate: 0.25
	`))
	if err != nil {
	    log.Fatal(err)
	}

	limit := cfg.Int("max_index", math.MaxInt32) // 4096
	mode := cfg.String("missing", "empty")       // "error"
	defs, err := cfg.StringMap("definitions")    // {"cell": "B2", "rate": "0.25"}

Accessors return the supplied default when a key is missing or holds a
value of the wrong type. StringMap is the exception: it reports nested
collections as errors, since a definition value must be a scalar.

Decimal numbers are decoded as json.Number and keep their source text,
so "rate: 0.10" defines "0.10" rather than "0.1".

The formula package turns a Config into engine options with
formula.OptionsFromConfig.

# Thread Safety

Config is safe for concurrent read access.
*/
package config
