package mocks

import (
	"net"

	"github.com/stretchr/testify/mock"
)

// SecurityLayer mocks the listener factory handed to servers.
type SecurityLayer struct {
	mock.Mock
}

func NewSecurityLayer(t mock.TestingT) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)
	registerCleanup(t, func() { m.AssertExpectations(t) })
	return m
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	args := m.Called(protocol, addr)
	ln, _ := args.Get(0).(net.Listener)
	return ln, args.Error(1)
}
