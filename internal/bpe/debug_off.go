//go:build !debug

package bpe

const debugBuild = false
