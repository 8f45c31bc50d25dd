// Package pipeline runs the blurred hit clustering stages end to end.
//
// It is the composition root: it imports hits, blur, cluster, config and
// timeutil, and none of those import pipeline. Each invocation owns its
// image, kernels and used-cell state, so separate invocations can run
// concurrently.
package pipeline
