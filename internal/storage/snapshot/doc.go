// Package snapshot reads and writes the keva store file.
//
// The store file is a single whole-table dump replaced atomically on
// every save (write to temp file, sync, rename). Layout:
//
//	[magic:8 "KEVASNAP"]
//	[HeaderLen:4][HeaderJSON:HeaderLen]
//	[DataLen:4][Data:DataLen]   (JSON entry map, or encrypted bytes)
//	[checksum:32 SHA-256 of all bytes above]
//
// The header stays plaintext even for encrypted files, so maintenance
// tooling can describe a store file without its key. When encryption is
// enabled the data block is sealed with an AEAD cipher keyed from a key
// file (see LoadKeyFile); the nonce is prepended to the ciphertext.
package snapshot
