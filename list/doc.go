/*
Package list reads and writes plain-text nameserver lists.

The list format is the venerable one-address-per-line format: a line starts
with an IPv4 or IPv6 address, optionally followed by whitespace and arbitrary
commentary. Blank lines and lines starting with “#” are ignored. Whatever
trails the address on a line is none of our business, but it is preserved so
that filtered lists keep their annotations.
*/
package list
