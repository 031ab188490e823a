// Package study implements the study session state machine and quiz
// generation for the three study modes.
//
// The session engine is pure: it transforms StudyProgress records and never
// touches persistence or the logical clock. The store applies these
// transitions and is responsible for stamping and saving the result.
package study
