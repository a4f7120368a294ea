/*
Package arbitertest provides mocks and helpers for testing handlers,
decorators and the code built on top of them.
*/
package arbitertest
