package database

import "strconv"

// Rebind rewrites '?' placeholders into the '$N' form postgres expects.
// Repositories write every query with '?' so the same SQL runs against both
// engines.  Queries never embed literal question marks, so a plain scan is
// sufficient.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b []byte
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			if b != nil {
				b = append(b, query[i])
			}
			continue
		}
		if b == nil {
			b = make([]byte, 0, len(query)+8)
			b = append(b, query[:i]...)
		}
		n++
		b = append(b, '$')
		b = strconv.AppendInt(b, int64(n), 10)
	}
	if b == nil {
		return query
	}
	return string(b)
}
