// Package security summarizes an engine configuration's security posture.
//
// [BuildReport] is pure: it takes a flattened view of the configuration and
// derives the warnings an operator should see. It never touches key material.
package security
