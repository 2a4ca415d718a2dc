// Package main provides the autograd tool for differentiating expressions,
// checking engine gradients against finite differences, and evaluating
// small multi-layer perceptrons described in YAML.
//
//	autograd grad -var a=-4 -var b=2 'let c = a + b; c * 3 + b'
//	autograd check -trials 1000 -seed 7
//	autograd mlp -config net.yaml -save weights.lzw
package main
