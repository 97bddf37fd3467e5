// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lan

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// formatVersion is written with every serialized network. Readers reject
// versions they do not know.
const formatVersion = 1

// networkFile is the on-disk form: the network plus a format version.
type networkFile struct {
	Version int `json:"version"`
	Network
}

// Write serializes the network as JSON. Op kinds are written by name
// ("mat_mul", "tanh", ...), so files remain readable and diffable.
func (n *Network) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(networkFile{Version: formatVersion, Network: *n}); err != nil {
		return errors.Wrapf(err, "lan: serializing network %q", n.Name)
	}
	return nil
}

// Save writes the network to a file. See Write.
func (n *Network) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "lan: creating %q", path)
	}
	if err := n.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "lan: writing %q", path)
}

// ReadNetwork parses a network serialized by Write, checks the format
// version and validates its structure. Unknown fields, unknown op names and
// structurally broken networks are all rejected with a descriptive error,
// so a network that loads is a network every runtime can interpret.
func ReadNetwork(r io.Reader) (*Network, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var file networkFile
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "lan: parsing network")
	}
	if file.Version != formatVersion {
		return nil, errors.Errorf("lan: network %q has format version %d, this build reads version %d",
			file.Name, file.Version, formatVersion)
	}
	if err := file.Network.Validate(); err != nil {
		return nil, errors.WithMessage(err, "lan: loaded network is invalid")
	}
	return &file.Network, nil
}

// LoadNetwork reads a network from a file. See ReadNetwork.
func LoadNetwork(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "lan: opening %q", path)
	}
	defer func() { _ = f.Close() }()
	net, err := ReadNetwork(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "lan: loading %q", path)
	}
	if klog.V(1).Enabled() {
		klog.Infof("lan: loaded network %q from %q (%d nodes, %d weights)",
			net.Name, path, len(net.Nodes), net.NumParams())
	}
	return net, nil
}
