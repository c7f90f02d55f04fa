// Package serialization stores trained networks in the .nnlb checkpoint
// format and loads them back.
//
// A checkpoint holds everything needed to rebuild a network exactly: its
// architecture, every weight and bias, the training progress counters and,
// optionally, the optimizer's state so training can resume.
//
//	File layout:
//	  0x00  [4 bytes: Magic "NNLB"]
//	  0x04  [4 bytes: Version (uint32 LE)]
//	  0x08  [4 bytes: Flags (uint32 LE)]
//	  0x0C  [4 bytes: Reserved]
//	  0x10  [8 bytes: Header size (uint64 LE)]
//	  0x18  [8 bytes: Data size (uint64 LE)]
//	  0x20  [32 bytes: SHA-256 of the data section]
//	  0x40  [Header: JSON]
//	        [Padding to a 64-byte boundary]
//	        [Data: float64 LE tensors]
//
// Parameters are stored in Parameters() order ("layer.0.weight",
// "layer.1.bias", ...), followed by optimizer buffers prefixed "optim.".
//
// Example usage:
//
//	// Save a trained network
//	if err := serialization.Save("xor.nnlb", net, serialization.WriteOptions{}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it back
//	ckpt, err := serialization.Load("xor.nnlb", serialization.ReaderOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	net, err := ckpt.Network()
package serialization
