// Package component holds the host framework primitives a flow node is made
// of: declarative typed inputs and the observable status side effect.
package component

// FieldType enumerates input kinds understood by the host.
type FieldType string

const (
	FieldStr       FieldType = "str"
	FieldSecretStr FieldType = "secret_str"
	FieldInt       FieldType = "int"
	FieldMultiline FieldType = "multiline"
	FieldData      FieldType = "data"
	FieldHandle    FieldType = "handle"
)

// Input declares one configurable field of a component.
type Input struct {
	Name        string    `json:"name" yaml:"name"`
	DisplayName string    `json:"display_name" yaml:"display_name"`
	Type        FieldType `json:"type" yaml:"type"`
	Info        string    `json:"info,omitempty" yaml:"info,omitempty"`
	Required    bool      `json:"required" yaml:"required"`
	Advanced    bool      `json:"advanced" yaml:"advanced"`
	IsList      bool      `json:"is_list" yaml:"is_list"`
	Value       any       `json:"value,omitempty" yaml:"value,omitempty"`
	InputTypes  []string  `json:"input_types,omitempty" yaml:"input_types,omitempty"`
}

// InputOption tweaks an Input built by one of the constructors below.
type InputOption func(*Input)

// Required marks the input as mandatory.
func Required() InputOption { return func(in *Input) { in.Required = true } }

// Advanced hides the input behind the host's "advanced" toggle.
func Advanced() InputOption { return func(in *Input) { in.Advanced = true } }

// IsList accepts multiple values.
func IsList() InputOption { return func(in *Input) { in.IsList = true } }

// Info sets the tooltip.
func Info(s string) InputOption { return func(in *Input) { in.Info = s } }

// Value sets the default.
func Value(v any) InputOption { return func(in *Input) { in.Value = v } }

func newInput(t FieldType, name, display string, opts []InputOption) Input {
	in := Input{Name: name, DisplayName: display, Type: t}
	for _, o := range opts {
		o(&in)
	}
	return in
}

func StrInput(name, display string, opts ...InputOption) Input {
	return newInput(FieldStr, name, display, opts)
}

func SecretStrInput(name, display string, opts ...InputOption) Input {
	return newInput(FieldSecretStr, name, display, opts)
}

func IntInput(name, display string, opts ...InputOption) Input {
	return newInput(FieldInt, name, display, opts)
}

func MultilineInput(name, display string, opts ...InputOption) Input {
	return newInput(FieldMultiline, name, display, opts)
}

func DataInput(name, display string, opts ...InputOption) Input {
	return newInput(FieldData, name, display, opts)
}

// HandleInput accepts a reference to a host-managed object of one of inputTypes.
func HandleInput(name, display string, inputTypes []string, opts ...InputOption) Input {
	in := newInput(FieldHandle, name, display, opts)
	in.InputTypes = inputTypes
	return in
}

// FieldConfig is the legacy map-style field declaration.
type FieldConfig struct {
	DisplayName string `json:"display_name"`
	Value       any    `json:"value,omitempty"`
	Show        *bool  `json:"show,omitempty"`
	IsList      bool   `json:"is_list,omitempty"`
	Advanced    bool   `json:"advanced,omitempty"`
}

// Descriptor identifies a component to the host.
type Descriptor struct {
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	Description   string `json:"description"`
	Documentation string `json:"documentation,omitempty"`
	Icon          string `json:"icon,omitempty"`
}
