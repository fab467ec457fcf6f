//go:build !dev

package config

type DevFlag struct{}

func (*DevFlag) StartProfiling() error { return nil }

func (*DevFlag) StopProfiling() {}
