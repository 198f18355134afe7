package stack

import "unsafe"

func framesAsPCs(frames []Frame) []uintptr {
	if len(frames) == 0 {
		return nil
	}
	return unsafe.Slice((*uintptr)(unsafe.Pointer(&frames[0])), len(frames))
}
