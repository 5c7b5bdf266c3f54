package command

import "fmt"

func (e *Executor) handleStatus() *Result {
	st := e.svc.Status()

	message := "no backend bound"
	if st.Bound {
		message = fmt.Sprintf("bound to %s", st.Backend)
	}
	return &Result{
		Success: true,
		Message: message,
		Data: map[string]interface{}{
			"backend": st.Backend,
			"bound":   st.Bound,
			"jobs":    st.Jobs,
		},
	}
}

func (e *Executor) handleProbe() *Result {
	caps := e.svc.Probe()

	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.Binding
	}
	return &Result{
		Success: true,
		Message: fmt.Sprintf("%d print-capable binding(s)", len(caps)),
		Data: map[string]interface{}{
			"bindings":     names,
			"capabilities": caps,
		},
	}
}

func (e *Executor) handleJobs() *Result {
	jobs := e.svc.Jobs()

	rows := make([]map[string]interface{}, len(jobs))
	for i, job := range jobs {
		rows[i] = map[string]interface{}{
			"id":      job.ID,
			"kind":    job.Kind,
			"backend": job.Backend,
			"code":    job.Code,
		}
	}
	return &Result{
		Success: true,
		Data:    map[string]interface{}{"jobs": rows},
	}
}

func (e *Executor) handleJob(args []string) *Result {
	if len(args) != 1 {
		return &Result{Success: false, Error: "usage: job <id>"}
	}

	job, ok := e.svc.Job(args[0])
	if !ok {
		return &Result{Success: false, Error: "job not found"}
	}
	return &Result{
		Success: true,
		Data: map[string]interface{}{
			"id":       job.ID,
			"kind":     job.Kind,
			"orderRef": job.OrderRef,
			"backend":  job.Backend,
			"code":     job.Code,
			"message":  job.Message,
		},
	}
}

func (e *Executor) handleHelp() *Result {
	return &Result{
		Success: true,
		Message: `Available commands:
  init          Bind a printing backend
  test          Print the self-test block
  rescan        Drop the bound backend and re-select
  status        Show the bound backend
  probe         Scan bindings for print capabilities
  jobs          List recent print jobs
  job <id>      Show one job
  help          Show this message`,
	}
}
