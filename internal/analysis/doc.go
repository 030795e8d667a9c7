// Package analysis extracts frequencies and phase portraits from spring
// simulations.
//
//   - [PowerSpectrum] and [DominantFrequency]: Hann-windowed FFT of a sampled series
//   - [NaturalFrequency]: analytic frequency of an ideal mass on a spring
//   - [Series]: one coordinate of one mass across recorded frames
//   - [Crossings]: upward level crossings, for period estimates in the time domain
//   - [GeneratePhasePortrait]: position against velocity for one mass
//
// Comparing a measured frequency against the analytic one is a quick check
// that a timestep is small enough:
//
//	f, _ := analysis.DominantFrequency(analysis.Series(frames, 1, 1), dt)
//	fn := analysis.NaturalFrequency(k, m)
package analysis
