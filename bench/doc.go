// Package bench checks benchmark records: a benchDL script together with the
// environment variables it runs with.
//
// [Analyze] reconciles the declared env with the variables the script
// actually uses, flagging unused entries and reporting undeclared ones.
// [GetErrors] lints the record and returns [diag.Diagnostic] values. Neither
// returns an error; a script that does not parse is reported as a
// diagnostic and leaves the env untouched.
//
// Bench records are stored as YAML or JSON and validated against an embedded
// JSON schema by [Load].
package bench
