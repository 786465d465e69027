package config

type WorkerKeyStruct struct {
	GradeSubmissionsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	GradeSubmissionsQueue: "grade_submissions_queue",
}
