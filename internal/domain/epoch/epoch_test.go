package epoch_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	epoch "github.com/okian/epochfmt/internal/domain/epoch"
	. "github.com/smartystreets/goconvey/convey"
)

var layoutPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

func TestConvert_Fixture(t *testing.T) {
	Convey("Given the default timestamp and a UTC+8 location", t, func() {
		loc := time.FixedZone("UTC+8", 8*60*60)

		Convey("When it is converted as milliseconds", func() {
			cdt, err := epoch.Convert(epoch.DefaultTimestamp, epoch.Milliseconds, loc)

			Convey("Then it renders the reference date", func() {
				So(err, ShouldBeNil)
				So(cdt.Format(), ShouldEqual, "2025-07-04 08:00:00")
				So(cdt.Year, ShouldEqual, 2025)
				So(cdt.Month, ShouldEqual, time.July)
				So(cdt.Day, ShouldEqual, 4)
				So(cdt.Hour, ShouldEqual, 8)
			})
		})

		Convey("When it is converted as seconds", func() {
			_, err := epoch.Convert(epoch.DefaultTimestamp, epoch.Seconds, loc)

			Convey("Then it is out of range", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, epoch.ErrOutOfRange), ShouldBeTrue)

				var rangeErr *epoch.ConversionRangeError
				So(errors.As(err, &rangeErr), ShouldBeTrue)
				So(rangeErr.Value, ShouldEqual, int64(epoch.DefaultTimestamp))
				So(rangeErr.Unit, ShouldEqual, epoch.Seconds)
			})
		})

		Convey("When the same value is converted as seconds after dividing by 1000", func() {
			cdt, err := epoch.Convert(epoch.DefaultTimestamp/1000, epoch.Seconds, loc)

			Convey("Then both interpretations agree", func() {
				So(err, ShouldBeNil)
				So(cdt.Format(), ShouldEqual, "2025-07-04 08:00:00")
			})
		})
	})
}

func TestConvert_Boundaries(t *testing.T) {
	Convey("Given UTC", t, func() {
		Convey("When converting zero", func() {
			cdt, err := epoch.Convert(0, epoch.Milliseconds, time.UTC)

			Convey("Then it is the epoch start", func() {
				So(err, ShouldBeNil)
				So(cdt.Format(), ShouldEqual, "1970-01-01 00:00:00")
				So(cdt.Unix(), ShouldEqual, int64(0))
			})
		})

		Convey("When converting zero in a western zone", func() {
			cdt, err := epoch.Convert(0, epoch.Milliseconds, time.FixedZone("UTC-5", -5*60*60))

			Convey("Then it is the local view of the epoch start", func() {
				So(err, ShouldBeNil)
				So(cdt.Format(), ShouldEqual, "1969-12-31 19:00:00")
			})
		})

		Convey("When converting a negative millisecond value", func() {
			cdt, err := epoch.Convert(-1, epoch.Milliseconds, time.UTC)

			Convey("Then the sub-second part is floored", func() {
				So(err, ShouldBeNil)
				So(cdt.Format(), ShouldEqual, "1969-12-31 23:59:59")
			})
		})

		Convey("When converting a value with sub-second precision", func() {
			cdt, err := epoch.Convert(epoch.DefaultTimestamp+999, epoch.Milliseconds, time.UTC)

			Convey("Then the milliseconds are discarded", func() {
				So(err, ShouldBeNil)
				So(cdt.Format(), ShouldEqual, "2025-07-04 00:00:00")
			})
		})

		Convey("When converting the last representable second", func() {
			cdt, err := epoch.Convert(253402300799, epoch.Seconds, time.UTC)

			Convey("Then it renders year 9999", func() {
				So(err, ShouldBeNil)
				So(cdt.Format(), ShouldEqual, "9999-12-31 23:59:59")
			})
		})

		Convey("When converting one second past the last representable second", func() {
			_, err := epoch.Convert(253402300800, epoch.Seconds, time.UTC)

			Convey("Then it is out of range", func() {
				So(errors.Is(err, epoch.ErrOutOfRange), ShouldBeTrue)
			})
		})

		Convey("When converting the first representable second", func() {
			cdt, err := epoch.Convert(-62135596800, epoch.Seconds, time.UTC)

			Convey("Then it renders year 0001", func() {
				So(err, ShouldBeNil)
				So(cdt.Format(), ShouldEqual, "0001-01-01 00:00:00")
			})
		})

		Convey("When the zone pushes the first second into year 0", func() {
			_, err := epoch.Convert(-62135596800, epoch.Seconds, time.FixedZone("UTC-1", -60*60))

			Convey("Then it is out of range", func() {
				So(errors.Is(err, epoch.ErrOutOfRange), ShouldBeTrue)
			})
		})

		Convey("When converting extreme int64 values", func() {
			Convey("Then neither overflows into a wrapped date", func() {
				for _, v := range []int64{1<<63 - 1, -1 << 63} {
					for _, unit := range []epoch.Unit{epoch.Seconds, epoch.Milliseconds} {
						_, err := epoch.Convert(epoch.Timestamp(v), unit, time.UTC)
						So(errors.Is(err, epoch.ErrOutOfRange), ShouldBeTrue)
					}
				}
			})
		})

		Convey("When converting with an unknown unit", func() {
			_, err := epoch.Convert(0, epoch.Unit("h"), time.UTC)

			Convey("Then it reports an invalid unit", func() {
				So(errors.Is(err, epoch.ErrInvalidUnit), ShouldBeTrue)
			})
		})
	})
}

func TestConvert_Properties(t *testing.T) {
	Convey("Given a spread of timestamps and zones", t, func() {
		zones := []*time.Location{
			time.UTC,
			time.FixedZone("UTC+8", 8*60*60),
			time.FixedZone("UTC-9:30", -(9*60+30)*60),
			time.FixedZone("UTC+14", 14*60*60),
		}
		values := []epoch.Timestamp{0, 1, -1, 86_399_999, 951_782_400_000, epoch.DefaultTimestamp, 4_102_444_800_000}

		Convey("Then every output matches the layout and round-trips", func() {
			for _, loc := range zones {
				for _, v := range values {
					first, err := epoch.Convert(v, epoch.Milliseconds, loc)
					So(err, ShouldBeNil)

					second, err := epoch.Convert(v, epoch.Milliseconds, loc)
					So(err, ShouldBeNil)
					So(second.Format(), ShouldEqual, first.Format())

					out := first.Format()
					So(len(out), ShouldEqual, 19)
					So(layoutPattern.MatchString(out), ShouldBeTrue)

					parsed, err := epoch.Parse(out, loc)
					So(err, ShouldBeNil)
					So(parsed, ShouldResemble, first)

					want := time.UnixMilli(int64(v)).Unix()
					So(parsed.Unix(), ShouldEqual, want)
				}
			}
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given formatted strings", t, func() {
		Convey("When parsing a valid value", func() {
			cdt, err := epoch.Parse("2025-07-04 08:00:00", time.FixedZone("UTC+8", 8*60*60))

			Convey("Then it yields the originating seconds", func() {
				So(err, ShouldBeNil)
				So(cdt.Unix(), ShouldEqual, int64(epoch.DefaultTimestamp/1000))
			})
		})

		Convey("When parsing malformed values", func() {
			Convey("Then each is rejected", func() {
				for _, s := range []string{"", "2025-07-04", "2025-07-04T08:00:00", "2025-7-4 8:00:00  ", "2025-13-04 08:00:00"} {
					_, err := epoch.Parse(s, time.UTC)
					So(errors.Is(err, epoch.ErrMalformed), ShouldBeTrue)
				}
			})
		})
	})
}

func TestParseUnit(t *testing.T) {
	Convey("Given unit names", t, func() {
		Convey("Then known aliases resolve", func() {
			for in, want := range map[string]epoch.Unit{
				"":             epoch.Milliseconds,
				"ms":           epoch.Milliseconds,
				"Millis":       epoch.Milliseconds,
				"milliseconds": epoch.Milliseconds,
				" s ":          epoch.Seconds,
				"sec":          epoch.Seconds,
				"SECONDS":      epoch.Seconds,
			} {
				got, err := epoch.ParseUnit(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Then unknown names fail", func() {
			_, err := epoch.ParseUnit("minutes")
			So(errors.Is(err, epoch.ErrInvalidUnit), ShouldBeTrue)
		})
	})
}

func TestConversionRangeError_Message(t *testing.T) {
	Convey("Given a range error", t, func() {
		err := &epoch.ConversionRangeError{Value: 42, Unit: epoch.Seconds}

		Convey("Then the message names the value and bounds", func() {
			So(err.Error(), ShouldEqual, "timestamp out of range: 42s converts outside years 0001-9999")
		})
	})
}
