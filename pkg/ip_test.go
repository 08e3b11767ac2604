package pkg

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPIsLocal(t *testing.T) {
	assert.True(t, IPIsLocal("127.0.0.1:8080"))
	assert.True(t, IPIsLocal("172.17.0.1:43210"))
	assert.False(t, IPIsLocal("8.8.8.8:443"))
	assert.False(t, IPIsLocal("192.168.1.1:80"))
}

func TestReadUserIP(t *testing.T) {
	req, err := http.NewRequest("GET", "/", nil)
	require.NoError(t, err)

	req.Header.Set("X-Real-Ip", "100.100.10.15")
	ip, err := ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "100.100.10.15", ip)

	req.Header.Del("X-Real-Ip")
	req.Header.Set("X-Forwarded-For", "100.100.10.16")
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "100.100.10.16", ip)

	req.Header.Del("X-Forwarded-For")
	req.RemoteAddr = "127.0.0.1:51234"
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "localhost", ip)

	req.RemoteAddr = "not-an-ip"
	_, err = ReadUserIP(req)
	assert.Error(t, err)
}
