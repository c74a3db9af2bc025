// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scq

import (
	"code.hybscloud.com/iox"
)

// ErrEmpty indicates a Dequeue found nothing to return.
//
// ErrEmpty is a control flow signal, not a failure: an empty queue is an
// expected, frequent condition under normal operation. It is an alias for
// [iox.ErrWouldBlock] for ecosystem consistency with other queues built on
// [code.hybscloud.com/iox]. The primary [RCUQueue.Dequeue] /
// [Consumer.Dequeue]-family methods report emptiness via a found bool
// instead of this error; DequeueErr on RCUQueue and Consumer returns it
// for callers already structured around iox-style backoff loops.
var ErrEmpty = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrEmpty.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
