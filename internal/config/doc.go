// Package config defines the format-agnostic document model for blueprint and
// run files, along with the Loader interface for reading them from various
// sources.
//
// The raw documents are deliberately loose: every enumerated value and
// timestamp is a plain string. They are the single input of the validator,
// which turns them into the strongly typed playbook model or reports every
// schema issue at once. Concrete implementations of Loader, such as for HCL,
// JSON and YAML files, are provided in separate packages.
package config
