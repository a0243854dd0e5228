package records

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	igerrors "iglikes/pkg/errors"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestWriteTo(t *testing.T) {
	rec := &PostRecord{
		URL:       "https://www.instagram.com/p/ABC123/",
		Caption:   "sunset\nat the beach",
		PostDate:  mustDate(t, "2024-01-05"),
		MediaType: MediaVideo,
		Likes:     42,
		Comments:  7,
		Likers:    []string{"bob", "carol"},
	}

	var buf bytes.Buffer
	n, err := rec.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	want := "Post URL: https://www.instagram.com/p/ABC123/\n" +
		"Caption: sunset at the beach\n" +
		"Post Date: 2024-01-05\n" +
		"Post type: Video\n" +
		"Likes: 42\n" +
		"Comments: 7\n" +
		"\n" +
		"Likers:\n" +
		"bob\n" +
		"carol\n"
	assert.Equal(t, want, buf.String())
}

func TestParseRoundTrip(t *testing.T) {
	rec := &PostRecord{
		URL:       "https://www.instagram.com/p/XYZ/",
		Caption:   "hello",
		PostDate:  mustDate(t, "2023-12-31"),
		MediaType: MediaPhoto,
		Likes:     3,
		Comments:  1,
		Likers:    []string{"a", "b", "c"},
	}

	var buf bytes.Buffer
	_, err := rec.WriteTo(&buf)
	require.NoError(t, err)

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, rec, parsed)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantDate   string
		wantLikers []string
		wantErr    bool
	}{
		{
			name:       "likers with blank and padded lines",
			input:      "Post URL: u\nCaption: c\nPost Date: 2024-01-01\nPost type: Photo\nLikes: 2\nComments: 0\n\nLikers:\n  bob  \n\ncarol\n",
			wantDate:   "2024-01-01",
			wantLikers: []string{"bob", "carol"},
		},
		{
			name:     "no likers marker",
			input:    "Post URL: u\nCaption: c\nPost Date: 2024-02-02\nPost type: Photo\nLikes: 0\nComments: 0\n",
			wantDate: "2024-02-02",
		},
		{
			name:       "windows line endings",
			input:      "Post URL: u\r\nCaption: c\r\nPost Date: 2024-03-03\r\nLikers:\r\nzed\r\n",
			wantDate:   "2024-03-03",
			wantLikers: []string{"zed"},
		},
		{
			name:    "date not on third line",
			input:   "Post URL: u\nPost Date: 2024-01-01\nCaption: c\n",
			wantErr: true,
		},
		{
			name:    "invalid date",
			input:   "Post URL: u\nCaption: c\nPost Date: 2024-13-45\n",
			wantErr: true,
		},
		{
			name:    "too short",
			input:   "Post URL: u\n",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, igerrors.IsType(err, igerrors.ErrorTypeParsing))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, rec.Date())
			assert.Equal(t, tt.wantLikers, rec.Likers)
		})
	}
}

func TestMediaTypeName(t *testing.T) {
	assert.Equal(t, MediaVideo, MediaTypeName(2))
	assert.Equal(t, MediaPhoto, MediaTypeName(1))
	assert.Equal(t, MediaPhoto, MediaTypeName(8))
	assert.Equal(t, MediaPhoto, MediaTypeName(0))
}

func TestFileName(t *testing.T) {
	date := mustDate(t, "2024-01-05")
	assert.Equal(t, "alice_2024-01-05.txt", FileName("alice", date, 1))
	assert.Equal(t, "alice_2024-01-05.txt", FileName("alice", date, 0))
	assert.Equal(t, "alice_2024-01-05_2.txt", FileName("alice", date, 2))
}

func TestFileMatcher(t *testing.T) {
	match := FileMatcher("al.ice")

	tests := []struct {
		name string
		want bool
	}{
		{"al.ice_2024-01-05.txt", true},
		{"al.ice_2024-01-05_3.txt", true},
		{"alXice_2024-01-05.txt", false},
		{"al.ice_Statistics_2024-01-05-10-00-00.csv", false},
		{"al.ice_2024-01-05.txt.tmp", false},
		{"bob_2024-01-05.txt", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match(tt.name))
		})
	}
}
