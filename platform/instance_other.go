//go:build !windows

package platform

// InstanceLock is a no-op outside Windows
type InstanceLock struct{}

func AcquireInstance(string) (*InstanceLock, error) { return &InstanceLock{}, nil }

func (l *InstanceLock) Release() error { return nil }
