package main

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindRejectsInvalidPort(t *testing.T) {
	_, err := bind("not-a-port")
	assert.Error(t, err)
}

func TestBindRejectsPortInUse(t *testing.T) {
	taken, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer taken.Close()
	port := strconv.Itoa(taken.Addr().(*net.TCPAddr).Port)

	_, err = bind(port)
	assert.Error(t, err)
}

func TestBindFreePort(t *testing.T) {
	ln, err := bind("0")
	require.NoError(t, err)
	defer ln.Close()
	assert.NotZero(t, ln.Addr().(*net.TCPAddr).Port)
}
