package student

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "wire format", input: `"2001-02-03"`, want: "2001-02-03"},
		{name: "timestamp", input: `"2001-02-03T10:00:00Z"`, want: "2001-02-03"},
		{name: "array", input: `[2001, 2, 3]`, want: "2001-02-03"},
		{name: "null", input: `null`, want: ""},
		{name: "empty string", input: `""`, want: ""},
		{name: "garbage", input: `"03/02/2001"`, wantErr: true},
		{name: "short array", input: `[2001, 2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(1999, time.December, 31))
	require.NoError(t, err)
	assert.JSONEq(t, `"1999-12-31"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDate_Display(t *testing.T) {
	d := NewDate(2004, time.March, 9)
	assert.Equal(t, "09/03/2004", d.Display("02/01/2006"))
	assert.Equal(t, "", Date{}.Display("02/01/2006"))
}

func TestPayload_NullPhoto(t *testing.T) {
	p := Payload{Name: "Ann", BirthDate: NewDate(2001, 2, 3), MobileNo: "555"}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ann","birthDate":"2001-02-03","mobileNo":"555","photoBase64":null}`, string(b))
}

func TestRecord_DecodeOmitsMissingPhoto(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"name":"Bo","birthDate":"2010-01-01","mobileNo":"1","photoBase64":null}`), &r))
	assert.Equal(t, int64(7), r.ID)
	assert.False(t, r.HasPhoto())
}
