// Package analysis provides offline measurements of rendered audio.
//
// Spectrum:
//   - Windowed FFT (Hann, Hamming, Blackman or rectangular)
//   - Dominant frequency estimation with parabolic bin interpolation
//
// Level Metering:
//   - Peak meter with hold and decay
//   - RMS (Root Mean Square) meter over a sliding window
//
// The render command uses these to summarize a rendered score.
package analysis
