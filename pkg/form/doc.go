// Package form turns a Template into a form session. A Session sorts the
// template questions (ascending order, stable on ties), binds one field
// controller per question, validates on submit and assembles the Answer list
// handed to a Submitter. Sessions are single-use and never persist values
// beyond their own lifetime.
package form
