/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import "math"

// appendStereo mengubah PCM int16 interleaved stereo menjadi frame float64
func appendStereo(dst [][2]float64, pcm []int16, frames int) [][2]float64 {
	for i := 0; i < frames; i++ {
		dst = append(dst, [2]float64{
			float64(pcm[i*2]) / 32768.0,
			float64(pcm[i*2+1]) / 32768.0,
		})
	}
	return dst
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}
