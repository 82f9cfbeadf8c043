// Package adaptive seals byte blobs with an AEAD cipher chosen for the
// platform: AES-256-GCM where crypto/aes runs on dedicated instructions
// (amd64, arm64), ChaCha20-Poly1305 everywhere else.
//
// Sealed blobs are laid out as nonce || ciphertext || tag with a fresh
// random nonce per call, so one key can seal any number of blobs. The
// additional data parameter is authenticated but not stored; opening
// must present the same bytes or fail.
//
// The platform choice is a performance default only. A blob opens
// only with the algorithm that sealed it, so callers moving sealed data
// between machines should pin the type with NewWithType instead of
// relying on New.
package adaptive
