package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	submissionsAccepted atomic.Int64
	submissionsRejected atomic.Int64
	anonymizedRecords   atomic.Int64
	individualsCreated  atomic.Int64
	contactMessages     atomic.Int64
)

func Init() {}

func IncSubmissionAccepted() {
	submissionsAccepted.Add(1)
}

func IncSubmissionRejected() {
	submissionsRejected.Add(1)
}

func IncAnonymizedRecord() {
	anonymizedRecords.Add(1)
}

func IncIndividualCreated() {
	individualsCreated.Add(1)
}

func IncContactMessage() {
	contactMessages.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP plataa_screening_submissions_accepted_total Number of screening submissions accepted since process start.\n")
	fmt.Fprintf(w, "# TYPE plataa_screening_submissions_accepted_total counter\n")
	fmt.Fprintf(w, "plataa_screening_submissions_accepted_total %d\n", submissionsAccepted.Load())

	fmt.Fprintf(w, "# HELP plataa_screening_submissions_rejected_total Number of screening submissions rejected since process start.\n")
	fmt.Fprintf(w, "# TYPE plataa_screening_submissions_rejected_total counter\n")
	fmt.Fprintf(w, "plataa_screening_submissions_rejected_total %d\n", submissionsRejected.Load())

	fmt.Fprintf(w, "# HELP plataa_screening_anonymized_records_total Number of anonymized research records written since process start.\n")
	fmt.Fprintf(w, "# TYPE plataa_screening_anonymized_records_total counter\n")
	fmt.Fprintf(w, "plataa_screening_anonymized_records_total %d\n", anonymizedRecords.Load())

	fmt.Fprintf(w, "# HELP plataa_screening_individuals_created_total Number of tested individuals registered since process start.\n")
	fmt.Fprintf(w, "# TYPE plataa_screening_individuals_created_total counter\n")
	fmt.Fprintf(w, "plataa_screening_individuals_created_total %d\n", individualsCreated.Load())

	fmt.Fprintf(w, "# HELP plataa_contact_messages_total Number of contact messages received since process start.\n")
	fmt.Fprintf(w, "# TYPE plataa_contact_messages_total counter\n")
	fmt.Fprintf(w, "plataa_contact_messages_total %d\n", contactMessages.Load())
}
