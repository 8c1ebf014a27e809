package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSetup(t *testing.T) {
	Convey("Given no collector endpoint", t, func() {
		shutdown, err := Setup(context.Background(), "marquee", "")

		Convey("Then tracing stays disabled with a no-op shutdown", func() {
			So(err, ShouldBeNil)
			So(shutdown, ShouldNotBeNil)
			So(shutdown(context.Background()), ShouldBeNil)
		})
	})

	Convey("Given an endpoint", t, func() {
		prev := otel.GetTracerProvider()
		defer otel.SetTracerProvider(prev)

		shutdown, err := Setup(context.Background(), "marquee", "http://127.0.0.1:4318")

		Convey("Then a provider is installed and shuts down cleanly", func() {
			So(err, ShouldBeNil)
			_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
			So(ok, ShouldBeTrue)
			So(shutdown(context.Background()), ShouldBeNil)
		})
	})
}

func TestTracer(t *testing.T) {
	Convey("Given an in-memory recorder", t, func() {
		prev := otel.GetTracerProvider()
		defer otel.SetTracerProvider(prev)

		rec := tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

		_, span := Tracer().Start(context.Background(), "render")
		span.End()

		Convey("Then spans from the module tracer are recorded", func() {
			So(len(rec.Ended()), ShouldEqual, 1)
			So(rec.Ended()[0].Name(), ShouldEqual, "render")
		})
	})
}
