package native

import (
	"bytes"
	"testing"
)

func TestCString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "on", in: "1", want: []byte("1\x00")},
		{name: "empty", in: "", want: []byte{0}},
		{name: "path", in: "0/set_device_tx_echo", want: []byte("0/set_device_tx_echo\x00")},
		{name: "embedded nul", in: "a\x00b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CString(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("CString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGoString(t *testing.T) {
	if got := GoString([]byte("500000\x00\x00junk")); got != "500000" {
		t.Errorf("GoString() = %q", got)
	}
	if got := GoString([]byte("abc")); got != "abc" {
		t.Errorf("GoString() = %q", got)
	}
}
