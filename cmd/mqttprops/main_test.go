package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneOfEachKindHex = "1e01011100000e100300046a736f6e090002dead2600016b0001760bc09a0c"

func noEnv(string) string { return "" }

func runCLI(t *testing.T, stdin string, getenv func(string) string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr, getenv)
	return code, stdout.String(), stderr.String()
}

func TestRun_DecodeArgument(t *testing.T) {
	code, out, _ := runCLI(t, "", noEnv, oneOfEachKindHex)
	require.Equal(t, exitOK, code)

	expected := `block: 31 bytes, 6 properties
  PayloadFormatIndicator=1
  SessionExpiryInterval=3600
  ContentType="json"
  CorrelationData=0xdead
  UserProperty="k":"v"
  SubscriptionIdentifier=200000
`
	assert.Equal(t, expected, out)
}

func TestRun_DecodeStdin(t *testing.T) {
	stdin := "# a comment\n00\n\n0x02 01 01\n02:24:02\n"
	code, out, _ := runCLI(t, stdin, noEnv)
	require.Equal(t, exitOK, code)

	assert.Contains(t, out, "block/0: 1 bytes, 0 properties")
	assert.Contains(t, out, "block/1: 3 bytes, 1 properties\n  PayloadFormatIndicator=1")
	assert.Contains(t, out, "block/2: 3 bytes, 1 properties\n  MaximumQoS=2")
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		expect string
	}{
		{name: "bad hex", args: []string{"zz"}, expect: "invalid hex"},
		{name: "truncated", args: []string{"0d03000a616263"}, expect: "decode failed"},
		{name: "unknown identifier", args: []string{"020001"}, expect: "invalid property identifier"},
		{name: "over capacity", args: []string{"-capacity", "1", "0401010101"}, expect: "decode failed"},
		{name: "strict", args: []string{"-strict", "06030003626507"}, expect: "invalid string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runCLI(t, "", noEnv, tt.args...)
			assert.Equal(t, exitFail, code)
			assert.Contains(t, out, tt.expect)
		})
	}
}

func TestRun_OneFailureFailsTheRun(t *testing.T) {
	code, out, _ := runCLI(t, "", noEnv, "00", "0201", "020101")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, out, "block/0: 1 bytes")
	assert.Contains(t, out, "block/1: decode failed")
	assert.Contains(t, out, "block/2: 3 bytes")
}

func TestRun_TrailingBytes(t *testing.T) {
	code, out, _ := runCLI(t, "", noEnv, "020101ffff")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "(2 trailing bytes ignored)")
}

func TestRun_Usage(t *testing.T) {
	tests := [][]string{
		{"-capacity", "0"},
		{"-no-such-flag"},
		{"-store", "a", "-redis", "b"},
		{"-dump"},
		{"-log-level", "loud", "00"},
	}

	for _, args := range tests {
		code, _, stderr := runCLI(t, "", noEnv, args...)
		assert.Equal(t, exitUsage, code, args)
		assert.NotEmpty(t, stderr, args)
	}
}

func TestRun_EnvironmentFallback(t *testing.T) {
	env := map[string]string{
		"MQTTPROPS_CAPACITY": "1",
		"MQTTPROPS_KEY":      "will",
	}
	getenv := func(k string) string { return env[k] }

	code, out, _ := runCLI(t, "", getenv, "0401010101")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, out, "will: decode failed")

	// Flags win over the environment.
	code, _, _ = runCLI(t, "", getenv, "-capacity", "2", "0401010101")
	assert.Equal(t, exitOK, code)
}

func TestRun_ArchiveAndDump(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := runCLI(t, "", noEnv, "-store", dir, "-key", "will/c1", "-log-level", "debug", oneOfEachKindHex)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stderr, "property block stored")

	code, _, _ = runCLI(t, "", noEnv, "-store", dir, "-key", "conn/c2", "020101")
	require.Equal(t, exitOK, code)

	code, out, _ := runCLI(t, "", noEnv, "-store", dir, "-dump")
	require.Equal(t, exitOK, code)

	assert.Contains(t, out, "conn/c2: 3 bytes, 1 properties")
	assert.Contains(t, out, "will/c1: 31 bytes, 6 properties")
	assert.Less(t, strings.Index(out, "conn/c2"), strings.Index(out, "will/c1"))
}

func TestParseHex(t *testing.T) {
	for _, in := range []string{"020101", "0x020101", "02 01 01", "02:01:01", "02-01-01", " 0X020101 "} {
		data, err := parseHex(in)
		require.NoError(t, err, in)
		assert.Equal(t, []byte{0x02, 0x01, 0x01}, data, in)
	}

	_, err := parseHex("021")
	assert.Error(t, err)
}
