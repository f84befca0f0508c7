package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimesOverlap(t *testing.T) {
	cases := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"plain overlap", "09:00", "11:00", "10:00", "12:00", true},
		{"contained", "09:00", "17:00", "10:00", "11:00", true},
		{"identical", "09:00", "11:00", "09:00", "11:00", true},
		{"touching endpoints conflict", "09:00", "10:00", "10:00", "11:00", true},
		{"touching the other way", "10:00", "11:00", "09:00", "10:00", true},
		{"disjoint before", "07:00", "08:00", "09:00", "10:00", false},
		{"disjoint after", "13:00", "14:00", "09:00", "10:00", false},
		{"one minute apart", "09:00", "09:59", "10:00", "11:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, timesOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// The predicate is symmetric.
			assert.Equal(t, tc.want, timesOverlap(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestDatesOverlap(t *testing.T) {
	d := func(day int) time.Time {
		return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
	}
	assert.True(t, datesOverlap(d(1), d(5), d(5), d(9)))
	assert.True(t, datesOverlap(d(1), d(10), d(3), d(4)))
	assert.False(t, datesOverlap(d(1), d(4), d(5), d(9)))
}

func TestCheckFacilityCapacity(t *testing.T) {
	overlapping := []conflictRow{
		{LoanID: "a", Quantity: 2},
		{LoanID: "b", Quantity: 1},
	}

	// 3 promised + 2 requested = 5 available: fits exactly.
	assert.NoError(t, checkFacilityCapacity("Projector", 5, 2, overlapping))

	// 3 promised + 3 requested > 5 available.
	err := checkFacilityCapacity("Projector", 5, 3, overlapping)
	require.Error(t, err)
	var stock *InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, "Projector", stock.AssetName)
	assert.Equal(t, 3, stock.Requested)
	assert.Equal(t, 2, stock.Remaining)
}

func TestCheckFacilityCapacityClampsRemaining(t *testing.T) {
	// Demand can exceed availability when stock was adjusted down after
	// approvals; the reported remainder never goes negative.
	err := checkFacilityCapacity("Speaker", 2, 1, []conflictRow{{Quantity: 4}})
	var stock *InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, 0, stock.Remaining)
}

func TestCheckFacilityCapacityNoOverlaps(t *testing.T) {
	assert.NoError(t, checkFacilityCapacity("Projector", 1, 1, nil))
	err := checkFacilityCapacity("Projector", 1, 2, nil)
	assert.Error(t, err)
}

func TestCreateLoanInputValidate(t *testing.T) {
	hours := OperatingHours{Open: "07:00", Close: "17:00"}
	room := "room-1"
	letter := "https://files.example/letter.pdf"
	blank := "  "

	base := func() CreateLoanInput {
		return CreateLoanInput{
			BorrowerID: "user-1",
			RoomID:     &room,
			StartDate:  time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			StartTime:  "09:00",
			EndTime:    "11:00",
			Purpose:    "lecture",
		}
	}

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, base().validate(hours))
	})

	t.Run("no room and no facilities", func(t *testing.T) {
		in := base()
		in.RoomID = nil
		assert.ErrorIs(t, in.validate(hours), ErrEmptyLoan)
	})

	t.Run("end date before start date", func(t *testing.T) {
		in := base()
		in.EndDate = in.StartDate.AddDate(0, 0, -1)
		assert.ErrorIs(t, in.validate(hours), ErrInvalidWindow)
	})

	t.Run("same day end time before start time", func(t *testing.T) {
		in := base()
		in.StartTime, in.EndTime = "11:00", "09:00"
		assert.ErrorIs(t, in.validate(hours), ErrInvalidWindow)
	})

	t.Run("overnight window spanning days is fine", func(t *testing.T) {
		in := base()
		in.EndDate = in.StartDate.AddDate(0, 0, 1)
		in.StartTime, in.EndTime = "15:00", "09:00"
		in.AttachmentURL = &letter
		assert.NoError(t, in.validate(hours))
	})

	t.Run("non-positive facility quantity", func(t *testing.T) {
		in := base()
		in.RoomID = nil
		in.Facilities = []FacilityRequest{{AssetID: "f-1", Quantity: 0}}
		assert.ErrorIs(t, in.validate(hours), ErrInvalidQuantity)
	})

	t.Run("facility listed twice", func(t *testing.T) {
		// Splitting 6 units across two entries of 3 would let each pass
		// a per-entry capacity check against a pool of 5.
		in := base()
		in.RoomID = nil
		in.Facilities = []FacilityRequest{
			{AssetID: "f-1", Quantity: 3},
			{AssetID: "f-1", Quantity: 3},
		}
		assert.ErrorIs(t, in.validate(hours), ErrDuplicateAsset)
	})

	t.Run("after-hours room needs a letter", func(t *testing.T) {
		in := base()
		in.StartTime, in.EndTime = "18:00", "20:00"
		assert.ErrorIs(t, in.validate(hours), ErrMissingAttachment)

		in.AttachmentURL = &blank
		assert.ErrorIs(t, in.validate(hours), ErrMissingAttachment)

		in.AttachmentURL = &letter
		assert.NoError(t, in.validate(hours))
	})

	t.Run("after-hours facilities need no letter", func(t *testing.T) {
		in := base()
		in.RoomID = nil
		in.Facilities = []FacilityRequest{{AssetID: "f-1", Quantity: 2}}
		in.StartTime, in.EndTime = "18:00", "20:00"
		assert.NoError(t, in.validate(hours))
	})
}
