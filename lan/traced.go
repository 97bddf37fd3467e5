// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lan

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/gomlx/backends"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// NetExec runs a Network stand-alone on a backend, outside any host
// computation.
//
// The first Call for a given input shape traces the network into a
// computation, compiles it and caches the executable; later calls with the
// same shape reuse it. CallNoJIT skips the cache, compiling and discarding
// a fresh computation every time.
type NetExec struct {
	net     *Network
	backend backends.Backend
	exec    *Exec
}

// NewNetExec validates the network and prepares an executor for it on
// backend. Nothing is compiled yet: compilation happens per input shape, on
// first use.
func NewNetExec(backend backends.Backend, net *Network) (*NetExec, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	e := &NetExec{net: net, backend: backend}
	e.exec = MustNewExecAny(backend, e.graphFn)
	klog.V(1).Infof("lan: executor for network %q (%d weights) on backend %q", net.Name, net.NumParams(), backend.Name())
	return e, nil
}

func (e *NetExec) graphFn(input *Node) []*Node {
	return e.net.BuildGraph(input)
}

// Call evaluates the network on input, shaped (batch, InputWidth), reusing
// the cached executable for that shape when there is one. It returns the
// declared outputs, in order.
func (e *NetExec) Call(input *tensors.Tensor) ([]*tensors.Tensor, error) {
	outputs, err := e.exec.Exec(input)
	if err != nil {
		return nil, errors.WithMessagef(err, "lan: evaluating network %q", e.net.Name)
	}
	return outputs, nil
}

// CallNoJIT evaluates the network on input through a computation built,
// compiled and discarded for this call alone, bypassing the executable
// cache. Results are identical to Call; only compilation reuse differs.
func (e *NetExec) CallNoJIT(input *tensors.Tensor) ([]*tensors.Tensor, error) {
	exec := MustNewExecAny(e.backend, e.graphFn)
	defer exec.Finalize()
	outputs, err := exec.Exec(input)
	if err != nil {
		return nil, errors.WithMessagef(err, "lan: evaluating network %q uncached", e.net.Name)
	}
	return outputs, nil
}

// Finalize releases the cached executables. The NetExec must not be used
// afterwards.
func (e *NetExec) Finalize() {
	e.exec.Finalize()
}
