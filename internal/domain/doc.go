// Package domain models the lunar mansion (宿) calendar: classification of the
// Moon's ecliptic longitude into the 28 mansions, the 28→27 reduction, and the
// per-month calibration against historically fixed dates.
//
// # Mansions
//
// The ecliptic circle is split into 28 equal sectors of 360/28 degrees,
// starting at 0° with 角 and running in the traditional order:
//
//	角 亢 氐 房 心 尾 箕 斗 牛 女 虚 危 室 壁
//	奎 婁 胃 昴 畢 觜 参 井 鬼 柳 星 張 翼 軫
//
// A longitude exactly on a sector edge belongs to the sector it enters. The
// 27-mansion scheme is the same list with 牛 folded into 女. See [Classify28]
// and [Reduce27].
//
// # Observation instant
//
// A date's mansion is read from the Moon's apparent geocentric ecliptic
// longitude at local sunrise in Tokyo (35.681236 N, 139.767125 E,
// Asia/Tokyo). Sunrise and longitude come from external providers
// ([SunriseProvider], [EphemerisProvider]).
//
// # Calibration
//
// The provider longitude does not line up with the historically attested
// mansions on its own. Two offsets are fitted per calendar month against the
// reference facts that fall in that month ([ReferenceFacts]):
//
//	time offset:  -6h .. +6h in 5 minute steps, first candidate that makes
//	              every fact in the month classify correctly
//	angle offset: -180° .. +180° in 0.1° steps, scanned with the time
//	              offset already fixed
//
// Candidates are generated from integer step indexes, never by repeated
// floating point addition, so the "first match" is stable. A month without
// facts uses zero offsets. A stage that finds no candidate uses zero. Only
// when the angle stage, run on top of the time result, still cannot satisfy
// every fact does [Calibration] report a fallback; the request does not fail.
package domain
