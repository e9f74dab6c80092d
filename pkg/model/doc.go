// Package model defines the inquiry value types shared by every other package:
// the Question schema, the Template that owns an ordered question list, and the
// Answer/Submission payloads posted back to the CRM backend. Templates are
// created server-side and treated as read-only here; helpers such as
// SortedQuestions always return copies so a fetched Template never changes
// underneath a form session.
package model
