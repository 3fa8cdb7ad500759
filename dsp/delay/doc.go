// Package delay builds echo and reverb from overlays: gain-scaled,
// time-shifted copies of a signal added sample-wise onto a base signal.
//
// Overlay length policy is truncation. The result always has the base's
// length, and an overlaid copy contributes only where it overlaps the base;
// anything that would land past the end is dropped.
package delay
