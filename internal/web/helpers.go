package web

import (
	"html"
	"strconv"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func escape(value string) string {
	if value == "" {
		return ""
	}
	return html.EscapeString(value)
}
