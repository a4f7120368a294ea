/*
Package docsign implements the multi-party document signing extension.

An authority owns a Clerk, a fixed capacity list of document addresses.
Every Document created by the authority takes one free Clerk slot. The
participants of a document sign it one by one and, once every participant
signed, the authority finalizes it.

A full Clerk is grown by a two phase migration. StageUpgrade moves the
clerk to the staged address and UpgradeLimit moves it back to the
canonical address with additional free slots.

All record addresses are derived from the owner and an optional seed, so
any party can compute them without a lookup. See Derive.
*/
package docsign
