// Package echomw adapts edikit parsing to echo handlers.
package echomw
