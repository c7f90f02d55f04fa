// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/nnlab/internal/serialization"
)

// Header is the metadata stored in a .nnlb checkpoint.
type Header = serialization.Header

// Save writes net to a .nnlb file.
//
// Parameters:
//   - net: The network to save
//   - path: File path to write to
//   - metadata: Optional metadata (can be nil)
//
// Example:
//
//	err := nn.Save(net, "xor.nnlb", map[string]string{"dataset": "xor"})
func Save(net *Network, path string, metadata map[string]string) error {
	return serialization.Save(path, net, serialization.WriteOptions{Metadata: metadata})
}

// Load rebuilds a network from a .nnlb file, including its training
// progress, after validating the file's checksum and layout.
//
// Example:
//
//	net, header, err := nn.Load("xor.nnlb")
func Load(path string) (*Network, Header, error) {
	ckpt, err := serialization.Load(path, serialization.ReaderOptions{})
	if err != nil {
		return nil, Header{}, err
	}
	net, err := ckpt.Network()
	if err != nil {
		return nil, Header{}, err
	}
	return net, ckpt.Header(), nil
}
