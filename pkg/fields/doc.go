// Package fields implements the per-question field controllers. A Registry
// maps each question type tag to a Descriptor (widget name, value kind and
// controller factory); tags without an entry resolve to the plain text
// descriptor so unknown types still render and submit like TEXT.
package fields
