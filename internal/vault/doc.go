// Package vault implements the credential vault manager: the
// locked/unlocked state machine, the in-memory master key, credential
// CRUD and URL search, master-password rotation, and auto-lock timing.
//
// The manager is an explicit instance over a storage.Store, so multiple
// independent vaults can coexist in one process. All state transitions
// and multi-step operations run under one mutex.
//
// Secrecy model: only ciphertext reaches the store. The master key is
// derived on unlock, held in memory, and zeroed on lock. Wrong password
// and tampered data are deliberately indistinguishable.
package vault
