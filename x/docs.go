/*
Package x contains the shared pieces of the ledger extensions.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together to construct an application.
Authentication is exposed through the Authenticator interface so
that handlers never depend on a particular signature scheme.
*/
package x
