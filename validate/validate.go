// Package validate runs the checks foxctl can do locally before a rule or a
// configuration update is sent to the daemon.
package validate

import (
	_ "embed"
	"fmt"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"github.com/kaptinlin/jsonschema"
)

//go:embed config_update.json
var rawConfigUpdateSchema []byte

//go:embed rule.json
var rawRuleSchema []byte

//go:embed rule_update.json
var rawRuleUpdateSchema []byte

// snapLen only affects the compiled program, not whether it compiles.
const snapLen = 65535

// ConfigUpdate checks a JSON configuration update payload against the
// daemon's configuration layout.
func ConfigUpdate(payload []byte) []error {
	return Schema(rawConfigUpdateSchema, payload)
}

// Rule checks a JSON rule payload.
func Rule(payload []byte) []error {
	return Schema(rawRuleSchema, payload)
}

// RuleUpdate checks a JSON partial rule payload. At least one field must be
// set.
func RuleUpdate(payload []byte) []error {
	return Schema(rawRuleUpdateSchema, payload)
}

// CaptureFilter compiles expr as a BPF filter for an Ethernet capture, which
// is what the daemon does with daemon.capture_filter on restart. An empty
// filter is accepted.
func CaptureFilter(expr string) error {
	if expr == "" {
		return nil
	}
	if _, err := pcap.CompileBPFFilter(layers.LinkTypeEthernet, snapLen, expr); err != nil {
		return fmt.Errorf("invalid capture filter %q: %w", expr, err)
	}
	return nil
}

// Schema validates payload against the JSON schema in rawSchema and returns
// every violation found.
func Schema(rawSchema []byte, payload []byte) []error {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(rawSchema)
	if err != nil {
		return []error{err}
	}

	var errors []error
	result := schema.Validate(payload)
	if !result.IsValid() {
		for _, err = range result.Errors {
			errors = append(errors, err)
		}
	}
	return errors
}
