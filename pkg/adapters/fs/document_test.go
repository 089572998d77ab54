package fs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot_BookNormalization(t *testing.T) {
	data := []byte(`{
		"book_list": [
			{"book_id": 1, "name": "Dune", "price": 20, "available": false},
			{"book_id": 2, "name": "Emma", "price": 15, "avaliable": false},
			{"book_id": 3, "name": "Ulysses", "price": 9, "available": true, "avaliable": false},
			{"book_id": 4}
		]
	}`)

	snap, err := decodeSnapshot(data)
	require.NoError(t, err)
	require.Len(t, snap.Books, 4)

	assert.False(t, snap.Books[0].Available)
	assert.False(t, snap.Books[1].Available, "legacy key must be honoured")
	assert.True(t, snap.Books[2].Available, "corrected key wins over legacy key")

	assert.Equal(t, UnknownName, snap.Books[3].Name)
	assert.Equal(t, 0, snap.Books[3].Price)
	assert.True(t, snap.Books[3].Available)

	assert.Empty(t, snap.Students)
	assert.Empty(t, snap.Loans)
}

func TestEncodeSnapshot_NeverWritesLegacyKey(t *testing.T) {
	snap, err := decodeSnapshot([]byte(`{"book_list": [{"book_id": 1, "name": "Emma", "price": 15, "avaliable": false}]}`))
	require.NoError(t, err)

	out, err := encodeSnapshot(snap)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "avaliable")
	assert.Contains(t, string(out), `"available": false`)
	assert.Contains(t, string(out), `"loan_list": []`)
}

func TestDecodeSnapshot_Timestamps(t *testing.T) {
	data := []byte(`{
		"loan_list": [
			{"loan_id": 1, "book_id": 1, "student_reg_id": 100,
			 "borrowed_at": "2024-03-01T10:00:00.123456", "due_at": "2024-03-15T10:00:00.123456", "returned_at": null},
			{"loan_id": 2, "book_id": 2, "student_reg_id": 100,
			 "borrowed_at": "2024-03-01T10:00:00Z", "due_at": "garbage", "returned_at": null},
			{"loan_id": 3, "book_id": 3, "student_reg_id": 100,
			 "borrowed_at": null, "due_at": null, "returned_at": "2024-03-05T08:00:00+02:00"}
		]
	}`)

	snap, err := decodeSnapshot(data)
	require.NoError(t, err)
	require.Len(t, snap.Loans, 3)

	naive := snap.Loans[0]
	want := time.Date(2024, time.March, 15, 10, 0, 0, 123456000, time.Local)
	assert.True(t, naive.DueAt.Equal(want), "naive timestamps are local time, got %v", naive.DueAt)
	assert.True(t, naive.Active())

	broken := snap.Loans[1]
	assert.True(t, broken.DueAt.IsZero())
	assert.False(t, broken.OverdueAt(time.Now()), "unknown due date is never overdue")

	closed := snap.Loans[2]
	assert.True(t, closed.BorrowedAt.IsZero())
	require.NotNil(t, closed.ReturnedAt)
	assert.True(t, closed.ReturnedAt.Equal(time.Date(2024, time.March, 5, 6, 0, 0, 0, time.UTC)))
}

func TestEncodeSnapshot_ZeroTimesAreNull(t *testing.T) {
	snap, err := decodeSnapshot([]byte(`{"loan_list": [{"loan_id": 1, "book_id": 1, "student_reg_id": 1, "due_at": "bad"}]}`))
	require.NoError(t, err)

	out, err := encodeSnapshot(snap)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"due_at": null`)
	assert.Contains(t, string(out), `"returned_at": null`)
}

func TestDecodeSnapshot_Invalid(t *testing.T) {
	for _, input := range []string{
		"",
		"{",
		`{"book_list": "nope"}`,
		`{"book_list": [{"book_id": "one"}]}`,
		`{"book_list": []} trailing`,
		`{"book_list": []} 42`,
		`{"book_list": []}]`,
		`{"book_list": []} {}`,
		"   \n",
	} {
		_, err := decodeSnapshot([]byte(input))
		assert.Error(t, err, "input %q", input)
		if err != nil {
			assert.True(t, strings.HasPrefix(err.Error(), "invalid json"))
		}
	}
}

func TestDecodeSnapshot_FractionalPrice(t *testing.T) {
	snap, err := decodeSnapshot([]byte(`{"book_list": [
		{"book_id": 1, "name": "Dune", "price": 20.0},
		{"book_id": 2, "name": "Emma", "price": 15.75}
	]}`))
	require.NoError(t, err)
	require.Len(t, snap.Books, 2)
	assert.Equal(t, 20, snap.Books[0].Price)
	assert.Equal(t, 15, snap.Books[1].Price)

	out, err := encodeSnapshot(snap)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"price": 20,`)
	assert.Contains(t, string(out), `"price": 15,`)
}
