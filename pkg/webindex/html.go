package webindex

// indexPage is served as the bucket's index document.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
<title>Pull Request Reports</title>
<link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/bootstrap/4.1.3/css/bootstrap.min.css" integrity="sha384-MCw98/SFnGE8fJT3GXwEOngsV7Zt27NXFoaoApmYm81iuXoPkFOJwJ8ERdknLPMO" crossorigin="anonymous">
<style>
.report-card { margin-bottom: 1rem; }
.badge-open { background-color: #28a745; color: #fff; }
.badge-closed { background-color: #dc3545; color: #fff; }
.badge-all { background-color: #6c757d; color: #fff; }
.badge-na { background-color: #adb5bd; color: #fff; }
</style>
</head>
<body>
<div class="container">
<h1 class="mt-4">Pull Request Reports</h1>
<p class="text-muted">Reports generated in the last {{ .LookbackDays }} days.</p>
<input type="text" id="search" class="form-control mb-4" placeholder="Search by repository or state..." onkeyup="filterReports()">
<div id="reports" class="row">
{{- range .Entries }}
<div class="col-md-6 report-card" data-search="{{ .Repo }} {{ .State }}">
  <div class="card">
    <div class="card-body">
      <h5 class="card-title">{{ .Repo }} <span class="badge {{ .BadgeClass }}">{{ .State }}</span></h5>
      <p class="card-text">
        Date: {{ .Date }}<br>
        Size: {{ .SizeMB }} MB<br>
        Updated: {{ .Updated }}
      </p>
      <a href="{{ .URL }}" class="btn btn-primary" target="_blank">Open report</a>
    </div>
  </div>
</div>
{{- else }}
<div class="col-12"><p>No reports found.</p></div>
{{- end }}
</div>
<p class="text-muted">Last updated: {{ .GeneratedAt }}</p>
</div>
<script>
function filterReports() {
  var term = document.getElementById('search').value.toLowerCase();
  var cards = document.getElementsByClassName('report-card');
  for (var i = 0; i < cards.length; i++) {
    var text = cards[i].getAttribute('data-search').toLowerCase();
    cards[i].style.display = text.indexOf(term) > -1 ? '' : 'none';
  }
}
</script>
</body>
</html>
`

// errorPage is served as the bucket's error document.
const errorPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Page not found</title>
<link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/bootstrap/4.1.3/css/bootstrap.min.css" integrity="sha384-MCw98/SFnGE8fJT3GXwEOngsV7Zt27NXFoaoApmYm81iuXoPkFOJwJ8ERdknLPMO" crossorigin="anonymous">
</head>
<body>
<div class="container">
<h1 class="mt-4">Page not found</h1>
<p>The report you are looking for does not exist or has been removed.</p>
<a href="index.html" class="btn btn-primary">Back to reports</a>
</div>
</body>
</html>
`
