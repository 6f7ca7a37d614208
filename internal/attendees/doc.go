// Package attendees turns the raw RSVP rows returned by the proxy into the
// statistics, filtered lists, pages and CSV exports shown to the couple.
//
// Every function here is pure: the whole pipeline is re-run whenever the
// record list, the search term or the filter category changes.
//
//	records := attendees.Normalize(raw)
//	view := attendees.Build(records, state, attendees.DefaultPageSize)
package attendees
