package schedule

// outcome is the verdict of the token grammar for one logical line.
type outcome int

const (
	outcomeReject   outcome = iota
	outcomeEmit             // A complete record was read.
	outcomeNeedMore         // A valid prefix ran out of tokens.
)

const (
	maxAirports = 4
	maxDays     = 7
)

// leg is an airport of the chain and the times printed after it.
type leg struct {
	airport string
	times   []string
}

// readLine applies the flight-line grammar to a token stream:
//
//	[status] flight airport [time...] (airport [time...])+ day{1,7} date date
//
// columns, when non-nil, are the header columns of the weekday letters and
// are used to place day markers. The returned reason explains a rejection.
func readLine(tokens []Token, columns []int) (FlightRecord, outcome, string) {
	var rec FlightRecord
	i, n := 0, len(tokens)

	if i < n && tokens[i].Kind == KindStatus {
		rec.Status = parseStatus(tokens[i].Text)
		i++
	}

	if i >= n || !tokens[i].numeric() {
		return rec, outcomeReject, "missing flight number"
	}
	rec.FlightNumber = tokens[i].Text
	i++

	var legs []leg
	for i < n && tokens[i].Kind == KindAirport {
		if len(legs) == maxAirports {
			return rec, outcomeReject, "too many airports"
		}
		l := leg{airport: tokens[i].Text}
		i++
		for i < n && tokens[i].Kind == KindTime {
			l.times = append(l.times, tokens[i].Text)
			i++
		}
		legs = append(legs, l)
	}

	if len(legs) == 0 {
		return rec, outcomeReject, "missing origin airport"
	}
	if i >= n {
		return rec, outcomeNeedMore, "line ends in leg chain"
	}
	if len(legs) < 2 {
		if tokens[i].Kind == KindDay {
			return rec, outcomeReject, "day marker before two airports"
		}
		return rec, outcomeReject, "missing destination airport"
	}
	if reason := fillLegs(&rec, legs); reason != "" {
		return rec, outcomeReject, reason
	}

	var days []Token
	for i < n && tokens[i].Kind == KindDay {
		days = append(days, tokens[i])
		i++
	}
	if len(days) > maxDays {
		return rec, outcomeReject, "more than seven day markers"
	}
	if i >= n {
		return rec, outcomeNeedMore, "line ends before dates"
	}
	placeDays(&rec, days, columns)
	if !rec.Operates() {
		return rec, outcomeReject, "missing day markers"
	}

	for _, dst := range []*string{&rec.ValidFrom, &rec.ValidTo} {
		if i >= n {
			return rec, outcomeNeedMore, "line ends before dates"
		}
		if tokens[i].Kind != KindDate {
			return rec, outcomeReject, "missing validity date"
		}
		*dst = tokens[i].Text
		i++
	}

	return rec, outcomeEmit, ""
}

func parseStatus(s string) Status {
	switch s {
	case "A":
		return StatusNew
	case "C":
		return StatusCancelled
	default:
		return StatusUnchanged
	}
}

// fillLegs maps the airport chain onto origin, up to two stops and the
// destination. The origin and destination carry at most one time each, a
// stop at most two (arrival, departure).
func fillLegs(rec *FlightRecord, legs []leg) string {
	first, last := legs[0], legs[len(legs)-1]
	if len(first.times) > 1 || len(last.times) > 1 {
		return "too many times at origin or destination"
	}
	if first.airport == last.airport {
		return "origin equals destination"
	}

	rec.Origin, rec.Departure1 = first.airport, timeAt(first.times, 0)
	rec.Destination, rec.Arrival3 = last.airport, timeAt(last.times, 0)

	stops := legs[1 : len(legs)-1]
	for _, s := range stops {
		if len(s.times) > 2 {
			return "too many times at stop"
		}
	}
	if len(stops) > 0 {
		rec.Stop1 = stops[0].airport
		rec.Arrival1, rec.Departure2 = timeAt(stops[0].times, 0), timeAt(stops[0].times, 1)
	}
	if len(stops) > 1 {
		rec.Stop2 = stops[1].airport
		rec.Arrival2, rec.Departure3 = timeAt(stops[1].times, 0), timeAt(stops[1].times, 1)
	}
	return ""
}

func timeAt(times []string, i int) string {
	if i < len(times) {
		return times[i]
	}
	return ""
}

// placeDays assigns day markers to weekdays. Markers are matched to header
// columns when every marker lines up with a distinct column, left to right;
// otherwise they fill Monday onwards in order.
func placeDays(rec *FlightRecord, days []Token, columns []int) {
	if slots, ok := columnSlots(days, columns); ok {
		for k, d := range days {
			rec.SetDay(slots[k], d.Text)
		}
		return
	}
	for k, d := range days {
		rec.SetDay(k, d.Text)
	}
}

const columnTolerance = 1

func columnSlots(days []Token, columns []int) ([]int, bool) {
	if len(columns) != maxDays {
		return nil, false
	}
	slots := make([]int, 0, len(days))
	next := 0
	for _, d := range days {
		if d.Line != days[0].Line {
			return nil, false
		}
		found := false
		for ; next < len(columns); next++ {
			if alignsWith(d, columns[next]) {
				slots = append(slots, next)
				next++
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return slots, true
}

// alignsWith reports whether any character of the marker sits within the
// tolerance of the header column.
func alignsWith(t Token, column int) bool {
	first := t.Col
	last := t.Col + len(t.Text) - 1
	return column >= first-columnTolerance && column <= last+columnTolerance
}
