package testutil

import (
	"testing"

	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// RequireEqualStatus asserts that two gRPC statuses are equal.
//
// Comparing the status protos directly covers both the code and the
// message; the string fallback keeps failure output readable.
func RequireEqualStatus(t *testing.T, want, got error) {
	t.Helper()
	wantProto := status.Convert(want).Proto()
	gotProto := status.Convert(got).Proto()
	if !proto.Equal(wantProto, gotProto) {
		wantStr := mustMarshalToString(t, wantProto)
		gotStr := mustMarshalToString(t, gotProto)
		if wantStr != gotStr {
			t.Fatalf("Not equal:\nWant:\n\n%s\n\nGot:\n\n%s", wantStr, gotStr)
		}
	}
}

func mustMarshalToString(t *testing.T, m proto.Message) string {
	s, err := protojson.MarshalOptions{
		Multiline: true,
	}.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return string(s)
}
