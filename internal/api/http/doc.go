// Package http exposes the terminal backend over a JSON REST API.
//
// Handlers depend on small interfaces (Sessions, CommandRunner, ShellLister,
// StatsProvider) so they can be exercised without real shells. Failures are
// reported as {"error": "..."} with the status derived from the error kind:
//
//	session not found, no shells, no home  404
//	duplicate session                       409
//	invalid geometry or request body        400
//	anything else                           500
package http
