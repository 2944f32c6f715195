// Package logger records interpreter events as newline delimited JSON so
// sessions can be summarized later with `pipesh events report`.
package logger
