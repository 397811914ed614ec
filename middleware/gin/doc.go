// Package ginmw adapts edikit parsing to gin handlers.
package ginmw
