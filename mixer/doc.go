// SPDX-License-Identifier: EPL-2.0

// Package mixer implements the mixdown engine: it sums an arbitrary number
// of independently-timed, independently-rated tracks into a fixed output
// configuration.
//
// An Engine owns one TrackMixer per input SampleSource. Each call to
// Process produces up to BufferSize samples per output channel, handling
// forward and reverse playback, constant or variable-rate resampling, gain
// envelopes, channel routing and final dither.
package mixer
