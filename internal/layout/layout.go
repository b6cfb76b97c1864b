// Package layout maps table coordinates to logical selections. The
// coordinates are those of the original 800x600 table and must not change:
// renderers place markers with the Marker functions and feed pointer
// positions back through CardSlotAt and BidValueAt.
package layout

// MaxCards is the number of card slots in a hand.
const MaxCards = 8

// MaxSeats is the number of seat positions around the table.
const MaxSeats = 6

const (
	cardTop    = 400
	cardBottom = 510
	cardLeft   = 10
	cardWidth  = 80
	cardStride = 90

	bidTop     = 255
	bidBottom  = 275
	bidCenterX = 314
	bidCenterY = 265
	bidStride  = 20
	bidRadius  = 10
)

// Point is a position on the table in pixels.
type Point struct {
	X, Y int
}

var seatMarkers = [MaxSeats]Point{
	{25, 275},
	{25, 145},
	{225, 15},
	{425, 15},
	{625, 145},
	{625, 275},
}

// CardSlotAt returns the hand slot under (x, y), or -1.
func CardSlotAt(x, y int) int {
	slot := -1
	if y >= cardTop && y <= cardBottom {
		for i := range MaxCards {
			if x >= cardLeft+cardStride*i && x <= cardLeft+cardWidth+cardStride*i {
				slot = i
			}
		}
	}
	return slot
}

// BidValueAt returns the bid whose selector circle contains (x, y), or -1.
// Touching circles share a boundary point; the higher bid wins it.
func BidValueAt(x, y int) int {
	value := -1
	if y >= bidTop && y <= bidBottom {
		cx := bidCenterX
		for i := range MaxCards + 1 {
			dx, dy := x-cx, y-bidCenterY
			if bidRadius*bidRadius >= dx*dx+dy*dy {
				value = i
			}
			cx += bidStride
		}
	}
	return value
}

// CardMarker is where the selection marker for slot i is drawn.
func CardMarker(slot int) Point {
	return Point{X: cardLeft + cardStride*slot, Y: cardTop}
}

// CardCenter is a point inside slot i, used to turn keyboard selection into
// a pointer event.
func CardCenter(slot int) Point {
	return Point{X: cardLeft + cardStride*slot + cardWidth/2, Y: (cardTop + cardBottom) / 2}
}

// BidMarker is where the selection marker for bid v is drawn.
func BidMarker(value int) Point {
	return Point{X: bidCenterX - bidRadius + bidStride*value, Y: bidCenterY - bidRadius - 1}
}

// BidCenter is the centre of the selector circle for bid v.
func BidCenter(value int) Point {
	return Point{X: bidCenterX + bidStride*value, Y: bidCenterY}
}

// SeatMarker is where the active-seat indicator is drawn for the seat at
// game position pos. ok is false for positions off the table.
func SeatMarker(pos int) (Point, bool) {
	if pos < 0 || pos >= MaxSeats {
		return Point{}, false
	}
	return seatMarkers[pos], true
}
