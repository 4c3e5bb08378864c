// Package serialization implements the .tfm binary format for saving and
// loading model state dictionaries and training checkpoints.
//
//	Format structure:
//	  [4 bytes:  Magic "TFMD"]
//	  [4 bytes:  Version (uint32 LE)]
//	  [4 bytes:  Flags (uint32 LE)]
//	  [8 bytes:  Header size (uint64 LE)]
//	  [32 bytes: SHA-256 checksum of tensor data]
//	  [Header: JSON metadata]
//	  [Tensor data: raw bytes, 64-byte aligned]
//
// Tensors are written in sorted name order so a given state dict always
// produces the same byte layout.
//
// Example usage:
//
//	w, err := serialization.NewWriter("trial-3/checkpoint.tfm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = w.WriteStateDict(model.StateDict(), "Sequential", nil)
//	w.Close()
package serialization
