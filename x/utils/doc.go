/*
Package utils contains decorators shared by every transaction that passes
through the application: panic recovery, logging, per transaction
savepoints and action tagging.
*/
package utils
