package constant

// SlotTimes is the daily entry schedule shared by every product.
var SlotTimes = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

const (
	SlotRemainingLow      = 4
	SlotRemainingCritical = 2
)

const (
	DayLabelSoldOut     = "sold_out"
	DayLabelSellingFast = "selling_fast"
	DayLabelLastSpots   = "last_spots"
)
