package export

import (
	"fmt"

	"perimeleon/pmexport/pkg/config"
)

// MembersMode selects how the members file is built.
type MembersMode string

const (
	// MembersFlatten derives members from the decoded households.
	MembersFlatten MembersMode = "flatten"

	// MembersProjection runs a second query with the members projection.
	MembersProjection MembersMode = "projection"
)

// DecodeErrorPolicy selects what happens to a record that fails to decode.
type DecodeErrorPolicy string

const (
	// OnErrorSkip logs and counts the record and continues.
	OnErrorSkip DecodeErrorPolicy = "skip"

	// OnErrorAbort fails the run.
	OnErrorAbort DecodeErrorPolicy = "abort"
)

// Options controls a run.
type Options struct {
	MembersMode    MembersMode
	OnDecodeError  DecodeErrorPolicy
	HouseholdsFile string
	MembersFile    string
	Pretty         bool
}

// DefaultOptions returns the options of a zero-configuration run.
func DefaultOptions() Options {
	return Options{
		MembersMode:    MembersFlatten,
		OnDecodeError:  OnErrorSkip,
		HouseholdsFile: config.DefaultHouseholdsFile,
		MembersFile:    config.DefaultMembersFile,
	}
}

// OptionsFromConfig maps the output and export configuration sections.
func OptionsFromConfig(out *config.OutputConfig, exp *config.ExportConfig) Options {
	return Options{
		MembersMode:    MembersMode(exp.MembersMode),
		OnDecodeError:  DecodeErrorPolicy(exp.OnDecodeError),
		HouseholdsFile: out.HouseholdsFile,
		MembersFile:    out.MembersFile,
		Pretty:         out.Pretty,
	}
}

func (o Options) validate() error {
	switch o.MembersMode {
	case MembersFlatten, MembersProjection:
	default:
		return fmt.Errorf("invalid members mode %q", o.MembersMode)
	}
	switch o.OnDecodeError {
	case OnErrorSkip, OnErrorAbort:
	default:
		return fmt.Errorf("invalid decode error policy %q", o.OnDecodeError)
	}
	if o.HouseholdsFile == "" || o.MembersFile == "" {
		return fmt.Errorf("output file names required")
	}
	return nil
}
