package platform

import (
	"encoding/base64"
	"errors"
	"testing"
)

// encodeCredentials builds a credentials blob the way the generator does.
func encodeCredentials(json string) string {
	return base64.StdEncoding.EncodeToString([]byte(json))
}

func TestDecodeCredentials(t *testing.T) {
	tests := []struct {
		name    string
		blob    string
		want    Credentials
		wantErr error
	}{
		{
			name: "complete",
			blob: encodeCredentials(`{"Name":"Upstairs","Serial":"S1","ProductType":"N223","Version":"1.2.3","LocalCredentials":"secret"}`),
			want: Credentials{Name: "Upstairs", Serial: "S1", ProductType: "N223", Version: "1.2.3", LocalCredentials: "secret"},
		},
		{
			name: "surrounding whitespace",
			blob: "  " + encodeCredentials(`{"Serial":"S1","LocalCredentials":"secret"}`) + "\n",
			want: Credentials{Serial: "S1", LocalCredentials: "secret"},
		},
		{
			name: "unpadded",
			blob: base64.RawStdEncoding.EncodeToString([]byte(`{"Serial":"S1","LocalCredentials":"secret"}`)),
			want: Credentials{Serial: "S1", LocalCredentials: "secret"},
		},
		{name: "not base64", blob: "%%%not-base64%%%", wantErr: ErrInvalidCredentials},
		{name: "not json", blob: encodeCredentials(`Serial=S1`), wantErr: ErrInvalidCredentials},
		{name: "empty", blob: "", wantErr: ErrInvalidCredentials},
		{name: "missing serial", blob: encodeCredentials(`{"LocalCredentials":"secret"}`), wantErr: ErrMissingField},
		{name: "missing password", blob: encodeCredentials(`{"Serial":"S1"}`), wantErr: ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCredentials(tt.blob)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeCredentials() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DecodeCredentials() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
